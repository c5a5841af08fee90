package dto

type SiteResponse struct {
	Key    string   `json:"key"`
	Name   string   `json:"name"`
	Shifts []string `json:"shifts"`
}

type ListSitesResponse struct {
	Sites []SiteResponse `json:"sites"`
}
