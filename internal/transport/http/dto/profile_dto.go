package dto

type ProfileCoreRequest struct {
	DisplayName string   `json:"display_name"`
	Birthdate   string   `json:"birthdate"`
	Bio         string   `json:"bio"`
	Interests   []string `json:"interests"`
}

type ProfileLocationRequest struct {
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type MeResponse struct {
	Profile UserSummaryResponse `json:"profile"`
}
