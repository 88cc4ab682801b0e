package imgfs

import (
	"errors"
	"fmt"
)

// Exported errors. Every engine operation reports its failure as one of
// these kinds; underlying OS or codec errors are wrapped so errors.Is
// still matches the kind.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotEnoughArguments = errors.New("not enough arguments")
	ErrInvalidCommand     = errors.New("invalid command")
	ErrInvalidImgID       = errors.New("invalid image id")
	ErrMaxFiles           = errors.New("invalid max number of files")
	ErrResolutions        = errors.New("invalid resolution")
	ErrImgFSFull          = errors.New("imgfs is full")
	ErrImageNotFound      = errors.New("image not found")
	ErrDuplicateID        = errors.New("duplicate image id")
	ErrIO                 = errors.New("i/o error")
	ErrImgLib             = errors.New("image library error")
	ErrRuntime            = errors.New("runtime error")
	ErrNotImplemented     = errors.New("not implemented")
)

func ioError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrIO, err)
}

func imglibError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrImgLib, err)
}
