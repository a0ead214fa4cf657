// Package dto defines data transfer objects for the directory HTTP API.
package dto

// UniversityItem is a university in the list response.
type UniversityItem struct {
	UUID string `json:"u_uuid"`
	Name string `json:"name"`
}
