// Package profiles implements public profiles and the follow relationship.
package profiles

// ProfileView is the public profile representation returned by the API.
// Following reflects the viewer's relationship and is false for anonymous
// requests.
type ProfileView struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

// ProfileResponse wraps a profile view in its envelope.
type ProfileResponse struct {
	Profile ProfileView `json:"profile"`
}
