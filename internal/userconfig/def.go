package userconfig

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/structtag"
)

type keyDesc struct {
	Type      Type
	FieldName string // field name in the Config struct
}

func newKeyDesc(f *reflect.StructField) (key string, desc keyDesc, err error) {
	tags, err := structtag.Parse(string(f.Tag))
	if err != nil {
		return "", keyDesc{}, err
	}
	tag, err := tags.Get("koanf")
	if err != nil {
		return "", keyDesc{}, errors.Wrap(err, "failed to get koanf tag")
	}
	key = tag.Name
	if key == "" {
		return "", keyDesc{}, errors.New("empty key")
	}

	kind, ok := kindFromReflect(f.Type.Kind())
	if !ok {
		return "", keyDesc{}, errors.Errorf("unsupported type %v", f.Type)
	}
	ty := Type{Kind: kind}

	if def, _ := tags.Get("default"); def != nil {
		val, err := kind.parseValue(def.Name)
		if err != nil {
			return "", keyDesc{}, errors.Wrap(err, "parse default value")
		}
		ty.Default = &val
	}

	// The oneof list is read without structtag, which would split it on the
	// first comma as if it were an option.
	if tag := f.Tag.Get("oneof"); tag != "" {
		var oneof []any
		for _, part := range strings.Split(tag, ",") {
			val, err := kind.parseValue(part)
			if err != nil {
				return "", keyDesc{}, errors.Wrap(err, "parse oneof value")
			}
			oneof = append(oneof, val)
		}
		ty.Oneof = oneof
	}

	if tag, _ := tags.Get("min"); tag != nil {
		if kind != Int {
			return "", keyDesc{}, errors.New("min is only supported on int fields")
		}
		n, err := strconv.Atoi(tag.Name)
		if err != nil {
			return "", keyDesc{}, errors.Wrap(err, "parse min value")
		}
		ty.Min = &n
	}

	return key, keyDesc{Type: ty, FieldName: f.Name}, nil
}

var descs = (func() map[string]keyDesc {
	t := reflect.TypeFor[Config]()
	descs := make(map[string]keyDesc, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key, desc, err := newKeyDesc(&f)
		if err != nil {
			panic(fmt.Sprintf("invalid userconfig definition for field %s: %v", f.Name, err))
		}
		if _, ok := descs[key]; ok {
			panic(fmt.Sprintf("duplicate key %s in userconfig.Config", key))
		}
		descs[key] = desc
	}
	return descs
})()

var configKeys = slices.Sorted(maps.Keys(descs))

func kindFromReflect(kind reflect.Kind) (Kind, bool) {
	switch kind {
	case reflect.String:
		return String, true
	case reflect.Int:
		return Int, true
	default:
		return 0, false
	}
}

func (c *Config) GetByKey(key string) (v Value, ok bool) {
	desc, ok := descs[key]
	if !ok {
		return Value{}, false
	}
	f := reflect.ValueOf(c).Elem().FieldByName(desc.FieldName)
	if !f.IsValid() {
		return Value{}, false
	}
	return Value{Val: f.Interface(), Type: desc.Type}, true
}

// Render lists every key with its current value, one per line.
func (c *Config) Render() string {
	var buf strings.Builder
	for _, key := range configKeys {
		if v, ok := c.GetByKey(key); ok {
			fmt.Fprintf(&buf, "%s: %s\n", key, v)
		}
	}
	return buf.String()
}

// validate checks every value in c against its key's constraints.
func (c *Config) validate() error {
	for _, key := range configKeys {
		v, _ := c.GetByKey(key)
		if err := v.Type.validate(v.Val); err != nil {
			return errors.Wrapf(err, "invalid value for %s", key)
		}
	}
	return nil
}

func GetType(key string) (Type, bool) {
	desc, ok := descs[key]
	return desc.Type, ok
}

func Keys() []string {
	return configKeys
}

// Docs describes every key on its own line, for command help.
func Docs() string {
	var buf strings.Builder
	for _, key := range configKeys {
		t := descs[key].Type
		fmt.Fprintf(&buf, "  %s", key)
		switch {
		case len(t.Oneof) > 0:
			fmt.Fprintf(&buf, " (%s)", RenderOneof(t.Oneof))
		case t.Min != nil:
			fmt.Fprintf(&buf, " (%s >= %d)", t.Kind.HumanString(), *t.Min)
		}
		if t.Default != nil {
			fmt.Fprintf(&buf, ", default %v", *t.Default)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}
