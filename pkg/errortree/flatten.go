package errortree

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Separator joins path segments inside an href.
const Separator = "-"

// Item is a single entry of an error summary list.
type Item struct {
	Text string `json:"text" yaml:"text"`
	Href string `json:"href" yaml:"href"`
}

// Params returns the item in the mapping shape the error summary template
// expects.
func (i Item) Params() map[string]any {
	return map[string]any{"text": i.Text, "href": i.Href}
}

// Flatten walks errors and returns one Item per leaf field in tree order.
// Keys found in idMap are replaced by the mapped id when building the href.
// Only the first message of a field is reported.
func Flatten(errors any, prefix string, idMap map[string]string) []Item {
	var out []Item
	flatten(errors, prefix, idMap, &out)
	return out
}

func flatten(errors any, prefix string, idMap map[string]string, out *[]Item) {
	switch v := errors.(type) {
	case nil:
		return
	case *Tree:
		v.Each(func(key string, value any) bool {
			flatten(value, prefix+segment(key, idMap)+Separator, idMap, out)
			return true
		})
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			flatten(v[key], prefix+segment(key, idMap)+Separator, idMap, out)
		}
	case map[string][]string:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			flatten(v[key], prefix+segment(key, idMap)+Separator, idMap, out)
		}
	case []*Tree:
		for idx, entry := range v {
			flatten(entry, prefix+strconv.Itoa(idx)+Separator, idMap, out)
		}
	case []map[string]any:
		for idx, entry := range v {
			flatten(entry, prefix+strconv.Itoa(idx)+Separator, idMap, out)
		}
	case []map[string][]string:
		for idx, entry := range v {
			flatten(entry, prefix+strconv.Itoa(idx)+Separator, idMap, out)
		}
	case []string:
		if len(v) == 0 {
			return
		}
		*out = append(*out, Item{Text: v[0], Href: href(prefix)})
	case []any:
		if len(v) == 0 {
			return
		}
		if isMapping(v[0]) {
			for idx, entry := range v {
				flatten(entry, prefix+strconv.Itoa(idx)+Separator, idMap, out)
			}
			return
		}
		*out = append(*out, Item{Text: message(v[0]), Href: href(prefix)})
	default:
		*out = append(*out, Item{Text: message(v), Href: href(prefix)})
	}
}

func segment(key string, idMap map[string]string) string {
	if id, ok := idMap[key]; ok && id != "" {
		return id
	}
	return key
}

func href(prefix string) string {
	return "#" + strings.TrimRight(prefix, Separator)
}

func isMapping(value any) bool {
	switch value.(type) {
	case *Tree, map[string]any, map[string][]string:
		return true
	default:
		return false
	}
}

func message(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
