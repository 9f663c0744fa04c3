package db

// Repositories provides access to all database repositories
type Repositories struct {
	Rooms  *RoomRepository
	Videos *VideoRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Rooms:  NewRoomRepository(db),
		Videos: NewVideoRepository(db),
	}
}
