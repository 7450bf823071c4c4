package email

import (
	"strings"
	"testing"
)

func TestRenderLeadAssignedEscapesNames(t *testing.T) {
	subject, content, err := renderLeadAssigned("Asha", "<b>Acme</b>", "https://app.example.com/leads/1")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "New lead assigned: <b>Acme</b>" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if strings.Contains(content, "<b>Acme</b>") || !strings.Contains(content, "&lt;b&gt;Acme&lt;/b&gt;") {
		t.Fatalf("expected escaped lead name in body")
	}
	if !strings.Contains(content, "https://app.example.com/leads/1") {
		t.Fatalf("expected link in body")
	}
}

func TestRenderDealClosed(t *testing.T) {
	subject, content, err := renderDealClosed(DealSummary{Title: "Website", Stage: "won", DealValue: 1500, Currency: "INR"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "Deal won: Website" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(content, "INR 1500.00") {
		t.Fatalf("expected formatted value in body")
	}

	subject, content, err = renderDealClosed(DealSummary{Title: "Website", Stage: "lost", LostReason: "budget"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "Deal lost: Website" || !strings.Contains(content, "Reason: budget") {
		t.Fatalf("unexpected lost rendering: %q", subject)
	}
}

func TestRenderTaskReminderOmitsEmptyTime(t *testing.T) {
	_, content, err := renderTaskReminder(TaskSummary{Title: "Call back", DueDate: "2024-06-10"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(content, " at ") {
		t.Fatalf("expected no time in body: %s", content)
	}
}
