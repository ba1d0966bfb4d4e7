package logs

import (
	"context"
	"errors"
	"fmt"
)

// WrapUnit joins err with the compilation unit recorded in ctx, if any.
func WrapUnit(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	path, ok := Unit(ctx)
	if !ok {
		return err
	}
	return errors.Join(err, fmt.Errorf("unit: %s", path))
}
