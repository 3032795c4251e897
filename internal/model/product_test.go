package model

import (
	"reflect"
	"testing"
)

func TestImagePathsScan(t *testing.T) {
	testCases := []struct {
		name string
		src  any
		want ImagePaths
	}{
		{name: "nil", src: nil, want: nil},
		{name: "single", src: "uploads/products/a.jpg", want: ImagePaths{"uploads/products/a.jpg"}},
		{name: "bytes with blanks", src: []byte("a.jpg, ,b.jpg,"), want: ImagePaths{"a.jpg", "b.jpg"}},
		{name: "empty string", src: "", want: ImagePaths{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got ImagePaths
			if err := got.Scan(tc.src); err != nil {
				t.Fatalf("Scan(%v) error = %v", tc.src, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Scan(%v) = %#v want %#v", tc.src, got, tc.want)
			}
		})
	}

	var bad ImagePaths
	if err := bad.Scan(42); err == nil {
		t.Errorf("Scan(42) error = nil, want error")
	}
}

func TestImagePathsValue(t *testing.T) {
	v, err := ImagePaths{"a.jpg", "b.jpg"}.Value()
	if err != nil || v != "a.jpg,b.jpg" {
		t.Errorf("Value() = %v, %v want a.jpg,b.jpg", v, err)
	}
	v, err = ImagePaths(nil).Value()
	if err != nil || v != nil {
		t.Errorf("Value() of empty = %v, %v want nil", v, err)
	}
}
