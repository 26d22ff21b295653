package booking

import (
	"errors"

	"hirewise/database/repository"
	"hirewise/utils"
)

func bookingLoadError(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFoundError("booking %s not found", id)
	}
	return utils.NewInternalError(err, "failed to load booking %s", id)
}

func providerLoadError(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFoundError("provider %s not found", id)
	}
	return utils.NewInternalError(err, "failed to load provider %s", id)
}

var errContention = errors.New("booking kept changing underneath the update")
