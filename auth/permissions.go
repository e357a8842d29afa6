package auth

// CanRead allows anyone to read any resource.
func CanRead(actorID, ownerID int64) bool {
	return true
}

// CanWrite allows mutations only by the resource's owner. The check runs
// per-object at the start of every write.
func CanWrite(actorID, ownerID int64) bool {
	return actorID == ownerID
}
