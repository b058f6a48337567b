package domain

import (
	"encoding/json"
	"strings"
)

// SprintInfo is the resolved sprint association of a record. Zero value
// means no sprint.
type SprintInfo struct {
	Name  string
	State string
}

// Active reports whether the sprint state is "active", case-insensitively.
func (s SprintInfo) Active() bool {
	return strings.EqualFold(s.State, "active")
}

// sprintVariant is one entry of the remote sprint field after shape
// detection, before selection.
type sprintVariant struct {
	structured bool
	info       SprintInfo
	raw        string
}

// ParseSprintField resolves the remote tracker's sprint field, which is
// polymorphic across deployments: absent, a structured object, an array of
// structured objects, or an array of Java-toString serialized strings like
//
//	"com.atlassian...Sprint@1b2c3d[id=5,name=Sprint 12,state=ACTIVE,...]"
//
// possibly mixed. When several entries exist the active one wins, otherwise
// the last (most recent). Malformed data degrades to the raw string as the
// name with an empty state; this never fails.
func ParseSprintField(raw json.RawMessage) SprintInfo {
	variants := splitSprintField(raw)
	if len(variants) == 0 {
		return SprintInfo{}
	}

	chosen := variants[len(variants)-1]
	for _, v := range variants {
		if v.resolve().Active() {
			chosen = v
			break
		}
	}
	return chosen.resolve()
}

// splitSprintField performs the shape dispatch: one variant per entry.
func splitSprintField(raw json.RawMessage) []sprintVariant {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		// Not an array: a single structured object or scalar string.
		if v, ok := parseSprintElement(raw); ok {
			return []sprintVariant{v}
		}
		return nil
	}

	var variants []sprintVariant
	for _, el := range elements {
		if v, ok := parseSprintElement(el); ok {
			variants = append(variants, v)
		}
	}
	return variants
}

func parseSprintElement(el json.RawMessage) (sprintVariant, bool) {
	var obj struct {
		Name  string `json:"name"`
		State string `json:"state"`
	}
	if err := json.Unmarshal(el, &obj); err == nil && (obj.Name != "" || obj.State != "") {
		return sprintVariant{structured: true, info: SprintInfo{Name: obj.Name, State: obj.State}}, true
	}

	var str string
	if err := json.Unmarshal(el, &str); err == nil {
		if str == "" {
			return sprintVariant{}, false
		}
		return sprintVariant{raw: str}, true
	}

	return sprintVariant{}, false
}

// resolve parses a serialized variant on demand; structured variants pass
// through untouched.
func (v sprintVariant) resolve() SprintInfo {
	if v.structured {
		return v.info
	}
	return parseSerializedSprint(v.raw)
}

// parseSerializedSprint extracts name and state from the bracketed
// key=value form. When no bracket segment is found the whole string becomes
// the name.
func parseSerializedSprint(s string) SprintInfo {
	open := strings.Index(s, "[")
	end := strings.Index(s, "]")
	if open < 0 || end < open {
		return SprintInfo{Name: s}
	}

	pairs := strings.Split(s[open+1:end], ",")
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if value == "null" || value == "<null>" {
			value = ""
		}
		fields[key] = strings.TrimSpace(value)
	}

	return SprintInfo{Name: fields["name"], State: fields["state"]}
}
