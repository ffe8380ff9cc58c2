package model

import "fmt"

// Status enums are ints in memory and their lowercase names on the wire.

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("unknown(%d)", v)
	}
	return names[v]
}

func parseEnum(kind string, names []string, text []byte) (int, error) {
	s := string(text)
	for i, name := range names {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s %q", kind, s)
}

func enumValid(names []string, v int) bool { return v >= 0 && v < len(names) }

// marshalEnum refuses out-of-range values so they never reach a stored slot.
func marshalEnum(kind string, names []string, v int) ([]byte, error) {
	if !enumValid(names, v) {
		return nil, fmt.Errorf("invalid %s %d", kind, v)
	}
	return []byte(names[v]), nil
}
