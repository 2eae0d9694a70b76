package utils

import "strings"

// MergeHeaders overlays override onto base without mutating either. Keys are
// matched case-insensitively so a caller-supplied content type wins over the
// default one.
func MergeHeaders(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		for existing := range result {
			if strings.EqualFold(existing, k) && existing != k {
				delete(result, existing)
			}
		}
		result[k] = v
	}
	return result
}

func CleanStringSlice(parts []string) []string {
	result := make([]string, 0)
	for _, item := range parts {
		if cleaned := strings.Trim(item, " "); cleaned != "" {
			result = append(result, cleaned)
		}
	}
	return result
}
