package handlers

// AppHandlers holds every handler the router mounts.
type AppHandlers struct {
	WebhookHandler  *WebhookHandler
	UserHandler     *UserHandler
	ScheduleHandler *ScheduleHandler
}
