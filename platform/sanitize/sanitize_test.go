package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Acme Corp ", "Acme Corp"},
		{"<b>hot</b> lead", "hot lead"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;call back", "alert(1)call back"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
	}
	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Errorf("Text(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOptionalText(t *testing.T) {
	if OptionalText(nil) != nil {
		t.Fatal("nil input should stay nil")
	}
	blank := "  <br/> "
	if OptionalText(&blank) != nil {
		t.Fatal("blank input should become nil")
	}
	note := " met at expo "
	got := OptionalText(&note)
	if got == nil || *got != "met at expo" {
		t.Fatalf("unexpected result %v", got)
	}
}
