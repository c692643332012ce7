package repository

// Store is the Record Store handle: one value per process, constructed at
// startup and handed to every service constructor.
type Store interface {
	Users() UserRepository
	Events() EventRepository
	Registrations() RegistrationRepository
	Notifications() NotificationRepository
	Posts() PostRepository
	Close() error
}
