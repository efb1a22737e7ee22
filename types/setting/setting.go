package setting

type UpdateRequest struct {
	Value  string `json:"value" validate:"max=2000"`
	Secret bool   `json:"secret"`
}

// View is a stored setting as returned to admins; secrets are masked
type View struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Secret bool   `json:"secret"`
}
