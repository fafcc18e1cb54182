// +build linux darwin

// Package rime's cgo binding onto librime's C API (rime_api.h).
package rime

/*
#cgo LDFLAGS: -lrime
#include <rime_api.h>
#include <stdlib.h>
#include <string.h>

static void rime_ls_init_traits(RimeTraits *traits) {
	memset(traits, 0, sizeof(RimeTraits));
	traits->data_size = (int)(sizeof(RimeTraits) - sizeof(traits->data_size));
}

static void rime_ls_init_context(RimeContext *ctx) {
	memset(ctx, 0, sizeof(RimeContext));
	ctx->data_size = (int)(sizeof(RimeContext) - sizeof(ctx->data_size));
}

static void rime_ls_init_commit(RimeCommit *commit) {
	memset(commit, 0, sizeof(RimeCommit));
	commit->data_size = (int)(sizeof(RimeCommit) - sizeof(commit->data_size));
}
*/
import "C"

import (
	"strings"
	"sync"
	"unsafe"

	"github.com/rime-ls/rime-ls/internal/inputparser"
)

// Adapter is the process-wide handle onto librime. Obtain it via Init,
// then Global from any goroutine.
type Adapter struct {
	mu sync.Mutex // serializes calls into the non-reentrant C API
}

var (
	instance     *Adapter
	instanceOnce sync.Once
	initialized  bool
	initMu       sync.Mutex
)

// Init performs one-time engine setup. A second call returns
// ErrAlreadyInitialized — the LSP Facade treats that as informational,
// not fatal (spec §4.6 step 3).
func Init(sharedDataDir, userDataDir, logDir string) (*Adapter, error) {
	initMu.Lock()
	defer initMu.Unlock()

	if initialized {
		return instance, ErrAlreadyInitialized
	}

	cShared := C.CString(sharedDataDir)
	cUser := C.CString(userDataDir)
	cLog := C.CString(logDir)
	cDistName := C.CString("Rime")
	cDistCode := C.CString("rime-ls")
	cDistVersion := C.CString(Version)
	cAppName := C.CString("rime.rime-ls")
	defer C.free(unsafe.Pointer(cShared))
	defer C.free(unsafe.Pointer(cUser))
	defer C.free(unsafe.Pointer(cLog))
	defer C.free(unsafe.Pointer(cDistName))
	defer C.free(unsafe.Pointer(cDistCode))
	defer C.free(unsafe.Pointer(cDistVersion))
	defer C.free(unsafe.Pointer(cAppName))

	var traits C.RimeTraits
	C.rime_ls_init_traits(&traits)
	traits.shared_data_dir = cShared
	traits.user_data_dir = cUser
	traits.log_dir = cLog
	traits.min_log_level = 1 // WARN
	traits.distribution_name = cDistName
	traits.distribution_code_name = cDistCode
	traits.distribution_version = cDistVersion
	traits.app_name = cAppName

	api := C.rime_get_api()
	if api == nil {
		return nil, ErrNullPointer
	}

	C.RimeSetup(&traits)
	C.RimeInitialize(&traits)
	if C.RimeStartMaintenance(C.Bool(0)) != 0 {
		C.RimeJoinMaintenanceThread()
	}

	instanceOnce.Do(func() { instance = &Adapter{} })
	initialized = true
	return instance, nil
}

// Global returns the process-wide Adapter. Panics if Init hasn't
// succeeded yet — the native library has no meaningful per-instance
// identity to fall back to (spec §9, "Global engine singleton").
func Global() *Adapter {
	initMu.Lock()
	defer initMu.Unlock()
	if !initialized || instance == nil {
		panic(ErrNotInitialized)
	}
	return instance
}

// Destroy releases the engine. Idempotent.
func (a *Adapter) Destroy() {
	initMu.Lock()
	defer initMu.Unlock()
	if !initialized {
		return
	}
	C.RimeFinalize()
	initialized = false
}

// CreateSession starts a new composition.
func (a *Adapter) CreateSession() uint {
	a.mu.Lock()
	defer a.mu.Unlock()
	return uint(C.RimeCreateSession())
}

// FindSession is a pure existence query; it never creates a session
// (spec §4.1 distinguishes this from the source's create-if-missing
// variant).
func (a *Adapter) FindSession(id uint) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return C.RimeFindSession(C.RimeSessionId(id)) != 0
}

// DestroySession releases a session.
func (a *Adapter) DestroySession(id uint) {
	a.mu.Lock()
	defer a.mu.Unlock()
	C.RimeDestroySession(C.RimeSessionId(id))
}

// ProcessKey injects a single keycode.
func (a *Adapter) ProcessKey(id uint, keycode int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	C.RimeProcessKey(C.RimeSessionId(id), C.int(keycode), 0)
}

// ProcessStr injects a byte sequence, one simulated keystroke per byte.
func (a *Adapter) ProcessStr(id uint, s string) {
	if s == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	C.RimeSimulateKeySequence(C.RimeSessionId(id), cs)
}

// DeleteKeys injects n backspace keycodes.
func (a *Adapter) DeleteKeys(id uint, n int) {
	if n <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < n; i++ {
		C.RimeProcessKey(C.RimeSessionId(id), C.int(KeyBackspace), 0)
	}
}

// ClearComposition cancels the current composition (equivalent to Escape).
func (a *Adapter) ClearComposition(id uint) {
	a.mu.Lock()
	defer a.mu.Unlock()
	C.RimeClearComposition(C.RimeSessionId(id))
}

// GetRawInput returns the engine's current raw input buffer for id, or ""
// if unavailable.
func (a *Adapter) GetRawInput(id uint) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	cs := C.RimeGetInput(C.RimeSessionId(id))
	if cs == nil {
		return ""
	}
	return C.GoString(cs)
}

// GetResponse observes the engine's state for id, paging forward (spec,
// supplemented features: paging via RimeProcessKey('=')) until either the
// menu is exhausted or maxCandidates entries have been collected.
func (a *Adapter) GetResponse(id uint, maxCandidates int) (Response, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if C.RimeFindSession(C.RimeSessionId(id)) == 0 {
		return Response{}, &SessionNotFoundError{SessionID: id}
	}

	var ctx C.RimeContext
	C.rime_ls_init_context(&ctx)
	if C.RimeGetContext(C.RimeSessionId(id), &ctx) == 0 {
		return Response{}, ErrGetCandidatesFailed
	}
	defer C.RimeFreeContext(&ctx)

	var candidates []Candidate
	for {
		n := int(ctx.menu.num_candidates)
		base := uintptr(unsafe.Pointer(ctx.menu.candidates))
		stride := unsafe.Sizeof(C.RimeCandidate{})
		for i := 0; i < n && len(candidates) < maxCandidates; i++ {
			c := (*C.RimeCandidate)(unsafe.Pointer(base + uintptr(i)*stride))
			text := C.GoString(c.text)
			comment := ""
			if c.comment != nil {
				comment = C.GoString(c.comment)
			}
			candidates = append(candidates, Candidate{
				Text:    text,
				Comment: comment,
				Order:   len(candidates) + 1,
			})
		}

		if len(candidates) >= maxCandidates || ctx.menu.is_last_page != 0 {
			break
		}
		if C.RimeProcessKey(C.RimeSessionId(id), C.int('='), 0) == 0 {
			break
		}
		C.RimeFreeContext(&ctx)
		C.rime_ls_init_context(&ctx)
		if C.RimeGetContext(C.RimeSessionId(id), &ctx) == 0 {
			break
		}
	}

	isIncomplete := len(candidates) > 0

	var commit C.RimeCommit
	C.rime_ls_init_commit(&commit)
	var commitText string
	if C.RimeGetCommit(C.RimeSessionId(id), &commit) != 0 {
		if commit.text != nil {
			commitText = C.GoString(commit.text)
		}
		C.RimeFreeCommit(&commit)
	}

	preedit := ""
	if ctx.composition.preedit != nil {
		preedit = C.GoString(ctx.composition.preedit)
	}
	submitted := commitText + inputparser.StripRawAlphabet(preedit)

	if len(candidates) == 0 {
		text := strings.TrimSpace(commitText)
		if text != "" {
			candidates = []Candidate{{Text: text, Order: 0}}
		}
	}

	return Response{
		IsIncomplete: isIncomplete,
		Submitted:    submitted,
		Candidates:   candidates,
	}, nil
}

// SyncUserData triggers background maintenance and joins it.
func (a *Adapter) SyncUserData() {
	a.mu.Lock()
	defer a.mu.Unlock()
	C.RimeStartMaintenance(C.Bool(1))
	C.RimeJoinMaintenanceThread()
}

// Version is the engine adapter's reported distribution_version, injected
// at link time the same way cmd/rime-ls's own version is.
var Version = "dev"
