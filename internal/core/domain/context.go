package domain

// DispatchContext carries the state of a single dispatch through the
// middleware pipeline. It is created fresh for every inbound message
// and must not be retained once the dispatch returns.
type DispatchContext struct {
	Message    *Message
	Descriptor Descriptor
	Args       []string

	// Authorization snapshots, populated by the dispatcher before the
	// pipeline runs when the command declares a requirement. Nil means
	// not loaded, which reads as no privileges.
	UserAuth *UserAuthorization
	BotAuth  *BotAuthorization
}

// UserAuthorization returns the loaded snapshot, or the zero-privilege
// result when none was loaded for this dispatch.
func (dc *DispatchContext) UserAuthorization() UserAuthorization {
	if dc.UserAuth == nil {
		return UserAuthorization{}
	}
	return *dc.UserAuth
}

// BotAuthorization returns the loaded snapshot, or the zero-privilege
// result when none was loaded for this dispatch.
func (dc *DispatchContext) BotAuthorization() BotAuthorization {
	if dc.BotAuth == nil {
		return BotAuthorization{}
	}
	return *dc.BotAuth
}
