//go:build windows

package walk

import "errors"

func unixMkfifo(path string) error {
	return errors.New("fifos are not supported on windows")
}
