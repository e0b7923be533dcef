package httpapi

import "testing"

func TestShouldTraceRequest_HealthPaths(t *testing.T) {
	t.Parallel()

	paths := []string{"/healthz", " /healthz ", "/metrics", "/openapi.yaml", "/docs", "/docs/"}
	for _, path := range paths {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
}

func TestShouldTraceRequest_EnginePaths(t *testing.T) {
	t.Parallel()

	paths := []string{"/v1/competitions/1/structure", "/v1/matches/3/score", "/", "/docsx"}
	for _, path := range paths {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}

func TestNormalizeIP(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"203.0.113.7, 10.0.0.1": "203.0.113.7",
		"198.51.100.2:5123":     "198.51.100.2",
		"not-an-ip":             "",
		"":                      "",
	}
	for in, want := range cases {
		if got := normalizeIP(in); got != want {
			t.Fatalf("normalizeIP(%q)=%q want %q", in, got, want)
		}
	}
}
