package mcp

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
)

// bindArguments decodes the tool arguments of request into target using json
// tags. Some clients send every argument as a string, so JSON-encoded arrays,
// comma-separated lists, numbers and booleans in strings are coerced to the
// field type.
func bindArguments(request mcp.CallToolRequest, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonArrayHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(request.GetArguments())
}

// jsonArrayHook turns a string holding a JSON array into a slice of the target
// element type. Other strings pass through unchanged.
func jsonArrayHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
		return data, nil
	}

	raw := strings.TrimSpace(data.(string))
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return data, nil
	}

	slicePtr := reflect.New(to)
	if err := json.Unmarshal([]byte(raw), slicePtr.Interface()); err != nil {
		return data, nil
	}
	return slicePtr.Elem().Interface(), nil
}
