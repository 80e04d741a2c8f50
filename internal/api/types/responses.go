package types

import "github.com/lofoneh/usersvc/internal/models"

type ErrorResponse struct {
	Error string `json:"error"`
}

type DeletedResponse struct {
	Deleted *models.User `json:"deleted"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
