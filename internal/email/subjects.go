package email

const (
	subjectLeadAssignedFmt = "New lead assigned: %s"
	subjectDealWonFmt      = "Deal won: %s"
	subjectDealLostFmt     = "Deal lost: %s"
	subjectTaskReminderFmt = "Reminder: %s"
)
