package validation

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/labstack/echo/v4"
)

// ErrTrailingData is returned when a JSON body holds more than one value.
var ErrTrailingData = errors.New("unexpected data after JSON body")

// JSONSerializer is Echo's default serializer with a stricter Deserialize:
// anything other than whitespace after the first JSON value is an error.
type JSONSerializer struct {
	echo.DefaultJSONSerializer
}

func (s JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	if err := dec.Decode(i); err != nil {
		return err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}
