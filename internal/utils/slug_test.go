package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Привет, мир!", "privet-mir"},
		{"Go 1.23: что нового", "go-1-23-chto-novogo"},
		{"  --- ", ""},
		{"UPPER case", "upper-case"},
		{"объявление", "obyavlenie"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, ожидалось %q", tc.in, got, tc.want)
		}
	}
}
