package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type leadAssignedEmailData struct {
	baseEmailData
	AssigneeName string
	LeadName     string
}

type dealClosedEmailData struct {
	baseEmailData
	DealTitle      string
	Won            bool
	ValueFormatted string
	LostReason     string
}

type taskReminderEmailData struct {
	baseEmailData
	TaskTitle string
	LeadName  string
	DueDate   string
	DueTime   string
	Priority  string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderLeadAssigned(assigneeName, leadName, leadURL string) (string, string, error) {
	content, err := renderEmailTemplate("lead_assigned.html", leadAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:    "New lead assigned",
			Heading:  "A lead was assigned to you",
			CTALabel: "Open lead",
			CTAURL:   leadURL,
		},
		AssigneeName: assigneeName,
		LeadName:     leadName,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectLeadAssignedFmt, leadName), content, nil
}

func renderDealClosed(deal DealSummary) (string, string, error) {
	won := deal.Stage == "won"
	subjectFmt, heading := subjectDealLostFmt, "Deal lost"
	if won {
		subjectFmt, heading = subjectDealWonFmt, "Deal won"
	}
	content, err := renderEmailTemplate("deal_closed.html", dealClosedEmailData{
		baseEmailData: baseEmailData{
			Title:    heading,
			Heading:  heading,
			CTALabel: "Open deal",
			CTAURL:   deal.URL,
		},
		DealTitle:      deal.Title,
		Won:            won,
		ValueFormatted: formatMoney(deal.DealValue, deal.Currency),
		LostReason:     deal.LostReason,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectFmt, deal.Title), content, nil
}

func renderTaskReminder(task TaskSummary) (string, string, error) {
	content, err := renderEmailTemplate("task_reminder.html", taskReminderEmailData{
		baseEmailData: baseEmailData{
			Title:    "Task reminder",
			Heading:  "A task is due",
			CTALabel: "Open tasks",
			CTAURL:   task.URL,
		},
		TaskTitle: task.Title,
		LeadName:  task.LeadName,
		DueDate:   task.DueDate,
		DueTime:   task.DueTime,
		Priority:  task.Priority,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectTaskReminderFmt, task.Title), content, nil
}

func formatMoney(value float64, currency string) string {
	return currency + " " + strconv.FormatFloat(value, 'f', 2, 64)
}
