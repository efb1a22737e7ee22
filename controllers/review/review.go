package review

import (
	"context"
	"errors"

	reviewModel "villa-booking/models/review"
	reviewService "villa-booking/services/review"
	reviewTypes "villa-booking/types/review"
	"villa-booking/utils"

	"github.com/gofiber/fiber/v2"
)

type Reviews interface {
	Validate(ctx context.Context, token string) (*reviewModel.ReviewToken, error)
	Submit(ctx context.Context, token string, rating int, comment string) (*reviewModel.Review, error)
}

// ReviewController is the guest-facing review endpoint; it authenticates by
// review token only.
type ReviewController struct {
	Reviews    Reviews
	Production bool
}

func NewReviewController(reviews Reviews, production bool) *ReviewController {
	return &ReviewController{Reviews: reviews, Production: production}
}

func (rc *ReviewController) invalid(c *fiber.Ctx) error {
	return utils.Respond(c, fiber.StatusBadRequest, reviewService.ErrInvalidToken.Error(), nil)
}

// CheckToken reports whether a review link is still usable
func (rc *ReviewController) CheckToken(c *fiber.Ctx) error {
	t, err := rc.Reviews.Validate(c.UserContext(), c.Params("token"))
	if errors.Is(err, reviewService.ErrInvalidToken) {
		return rc.invalid(c)
	}
	if err != nil {
		return utils.ServerError(c, rc.Production, "Failed to check review token", err)
	}

	return utils.Respond(c, fiber.StatusOK, "Review token is valid", fiber.Map{
		"booking_id": t.BookingID,
		"expires_at": t.ExpiresAt,
	})
}

// Submit stores a guest review and consumes its token
func (rc *ReviewController) Submit(c *fiber.Ctx) error {
	var req reviewTypes.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ValidationError(c, err)
	}

	r, err := rc.Reviews.Submit(c.UserContext(), req.Token, req.Rating, req.Comment)
	if errors.Is(err, reviewService.ErrInvalidToken) {
		return rc.invalid(c)
	}
	if err != nil {
		return utils.ServerError(c, rc.Production, "Failed to submit review", err)
	}
	return utils.Respond(c, fiber.StatusCreated, "Thank you for your review", r)
}
