package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestParseVec3(t *testing.T) {
	v, err := parseVec3(" -0.5, -1 ,0.25")
	if err != nil {
		t.Fatal(err)
	}
	if want := (mgl32.Vec3{-0.5, -1, 0.25}); v != want {
		t.Fatalf("got %v, want %v", v, want)
	}

	for _, bad := range []string{"", "1,2", "1,2,3,4", "a,b,c"} {
		if _, err := parseVec3(bad); err == nil {
			t.Errorf("parseVec3(%q): expected error", bad)
		}
	}
}

func TestFormatVec3RoundTrip(t *testing.T) {
	in := mgl32.Vec3{0.125, -1, 0.5}
	out, err := parseVec3(formatVec3(in))
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatalf("got %v, want %v", out, in)
	}
}
