package aws

func intAt(attrs map[string]any, key string) (int, bool) {
	switch n := attrs[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func strAt(attrs map[string]any, key string) string {
	s, _ := attrs[key].(string)
	return s
}

func listAt(attrs map[string]any, key string) []any {
	l, _ := attrs[key].([]any)
	return l
}

func mapAt(attrs map[string]any, key string) map[string]any {
	m, _ := attrs[key].(map[string]any)
	return m
}

func capScore(score, max int) int {
	if score > max {
		return max
	}
	return score
}
