package domain

import "testing"

func strPtr(s string) *string { return &s }

func TestNormalizerIdentifiers(t *testing.T) {
	n := NewNormalizer("IN")
	got := n.Identifiers(Identifiers{
		Phone:           strPtr("  +91 81234 56789 "),
		Email:           strPtr("  Priya@Example.COM "),
		InstagramHandle: strPtr(" @priya.designs "),
		WhatsAppNumber:  strPtr("   "),
	})

	if got.Phone == nil || *got.Phone != "+918123456789" {
		t.Fatalf("phone = %v", got.Phone)
	}
	if got.Email == nil || *got.Email != "priya@example.com" {
		t.Fatalf("email = %v", got.Email)
	}
	if got.InstagramHandle == nil || *got.InstagramHandle != "priya.designs" {
		t.Fatalf("instagram = %v", got.InstagramHandle)
	}
	if got.WhatsAppNumber != nil {
		t.Fatalf("blank whatsapp should be nil, got %q", *got.WhatsAppNumber)
	}
}

func TestNormalizerKeepsUnparseablePhoneTrimmed(t *testing.T) {
	n := NewNormalizer("IN")
	if got := n.Phone("  ext-42 "); got != "ext-42" {
		t.Fatalf("Phone() = %q", got)
	}
}

func TestIdentifiersEmpty(t *testing.T) {
	if !(Identifiers{}).Empty() {
		t.Fatal("zero identifiers should be empty")
	}
	if (Identifiers{Email: strPtr("a@b.c")}).Empty() {
		t.Fatal("email present, should not be empty")
	}
}

func TestMatchedFieldPrecedence(t *testing.T) {
	existing := Identifiers{
		Phone:          strPtr("+919990001111"),
		Email:          strPtr("a@b.c"),
		WhatsAppNumber: strPtr("+919990002222"),
	}

	cases := []struct {
		name      string
		candidate Identifiers
		want      Field
		ok        bool
	}{
		{"phone wins over email", Identifiers{Phone: strPtr("+919990001111"), Email: strPtr("a@b.c")}, FieldPhone, true},
		{"email only", Identifiers{Email: strPtr("a@b.c")}, FieldEmail, true},
		{"whatsapp only", Identifiers{WhatsAppNumber: strPtr("+919990002222")}, FieldWhatsAppNumber, true},
		{"email beats whatsapp", Identifiers{Email: strPtr("a@b.c"), WhatsAppNumber: strPtr("+919990002222")}, FieldEmail, true},
		{"no overlap", Identifiers{InstagramHandle: strPtr("someone")}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := MatchedField(existing, tc.candidate)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("MatchedField() = %q, %v; want %q, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestFieldLabels(t *testing.T) {
	want := map[Field]string{
		FieldPhone:           "phone number",
		FieldEmail:           "email",
		FieldInstagramHandle: "Instagram handle",
		FieldWhatsAppNumber:  "WhatsApp number",
	}
	for f, label := range want {
		if f.Label() != label {
			t.Errorf("%s label = %q, want %q", f, f.Label(), label)
		}
	}
	if msg := DuplicateMessage(FieldPhone, "Priya"); msg != "A lead with this phone number already exists: Priya" {
		t.Errorf("unexpected message %q", msg)
	}
}
