package model

// Organization is a single record from the Meraki /organizations listing.
type Organization struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Url       string    `json:"url,omitempty"`
	Api       Api       `json:"api"`
	Licensing Licensing `json:"licensing"`
}

type Api struct {
	Enabled bool `json:"enabled"`
}

type Licensing struct {
	Model string `json:"model,omitempty"`
}

// Network is a single record from the per-organization network listing.
type Network struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type,omitempty"`
	TimeZone     string   `json:"timeZone,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	ProductTypes []string `json:"productTypes,omitempty"`
}

// ClientCount is one sample of the wireless client count history.
// ClientCount is a pointer because the upstream reports null for
// intervals without data.
type ClientCount struct {
	StartTs     string `json:"startTs"`
	EndTs       string `json:"endTs"`
	ClientCount *int   `json:"clientCount"`
}

// NetworkHistory pairs a network's display name with its collected
// samples. A network whose fetch failed carries an empty History.
type NetworkHistory struct {
	Name    string        `json:"name"`
	History []ClientCount `json:"history"`
}
