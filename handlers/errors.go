package handlers

import (
	stderrors "errors"
	"toilet-finder/services"
	"toilet-finder/utils/errors"
)

// apiError maps service errors to their API representation.
func apiError(err error) error {
	switch {
	case stderrors.Is(err, services.ErrViewClosed):
		return errors.ErrViewClosed
	case stderrors.Is(err, services.ErrUnknownToilet):
		return errors.ErrToiletNotFound
	case stderrors.Is(err, services.ErrNoPosition):
		return errors.ErrNoPosition
	case stderrors.Is(err, services.ErrNoSelection):
		return errors.ErrNoSelection
	}
	return err
}
