package logout

type Input struct {
	Token string
}

type Output struct {
	RedirectTo string `json:"redirectTo"`
}
