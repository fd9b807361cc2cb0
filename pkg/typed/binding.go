package typed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"github.com/aretw0/scribe/pkg/core"
)

// ErrUnset means the key holds no value.
var ErrUnset = errors.New("not set")

// TagName is the struct tag read by Decode and Encode.
const TagName = "config"

// Decode fills a T from the store. Fields are matched by their `config`
// tag (or name); strings are converted weakly, so "true", "12" and "5s"
// bind to bool, int and time.Duration fields.
func Decode[T any](store core.ConfigStore) (T, error) {
	var out T

	input := make(map[string]any)
	for _, e := range store.List() {
		input[e.Key] = e.Value
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          TagName,
		Result:           &out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(input); err != nil {
		return out, fmt.Errorf("failed to decode config: %w", err)
	}
	return out, nil
}

// Encode writes the fields of v (a struct or pointer to struct) to the store
// in a single SetAll.
func Encode(store core.ConfigStore, v any) error {
	fields := make(map[string]any)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: TagName,
		Result:  &fields,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	entries := make(map[string]string, len(fields))
	for k, val := range fields {
		if list, ok := val.([]string); ok {
			entries[k] = strings.Join(list, ",")
			continue
		}
		str, err := cast.ToStringE(val)
		if err != nil {
			return fmt.Errorf("config %s: %w", k, err)
		}
		entries[k] = str
	}
	return store.SetAll(entries)
}
