package vectors

import (
	"encoding/json"
	"math"
	"testing"
)

func TestRotate(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec3
		axis  Vec3
		theta float64
		want  Vec3
	}{
		{"quarter turn about Y", Vec3{1, 0, 0}, Vec3{0, 1, 0}, math.Pi / 2, Vec3{0, 0, -1}},
		{"half turn about Z", Vec3{1, 0, 0}, Vec3{0, 0, 1}, math.Pi, Vec3{-1, 0, 0}},
		{"axis is fixed", Vec3{0, 2, 0}, Vec3{0, 1, 0}, 1.234, Vec3{0, 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Rotate(tt.axis, tt.theta)
			if Distance(got, tt.want) > 1e-12 {
				t.Errorf("Rotate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize(0) = %+v, want zero", got)
	}
}

func TestJSONTriple(t *testing.T) {
	data, err := json.Marshal(Vec3{1, 2.5, -3})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[1,2.5,-3]" {
		t.Errorf("Marshal = %s", data)
	}
	var v Vec3
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatal(err)
	}
	if v != (Vec3{1, 2.5, -3}) {
		t.Errorf("Unmarshal = %+v", v)
	}
}
