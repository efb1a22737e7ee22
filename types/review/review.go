package review

// SubmitRequest is the body of POST /reviews
type SubmitRequest struct {
	Token   string `json:"token" validate:"required,hexadecimal,len=64"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=5000"`
}
