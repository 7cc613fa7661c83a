package model

// User never carries the password hash; stores hand it out separately.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Theme       string `json:"theme"`
	Units       string `json:"units"`
	LandingPage string `json:"landing_page"`
}
