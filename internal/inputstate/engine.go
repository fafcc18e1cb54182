package inputstate

// Engine is the subset of the Engine Adapter (internal/rime) the state
// machine drives. Expressed as an interface so the decision tree in
// machine.go can be exercised without linking the native library.
type Engine interface {
	CreateSession() uint
	FindSession(id uint) bool
	DestroySession(id uint)
	ProcessKey(id uint, keycode int)
	ProcessStr(id uint, s string)
	DeleteKeys(id uint, n int)
	ClearComposition(id uint)
	GetRawInput(id uint) string
}
