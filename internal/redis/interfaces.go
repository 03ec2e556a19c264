package redis

import "tawseel/internal/repository"

// Ensure concrete types implement interfaces.
var _ repository.UserRepository = (*UserCache)(nil)
