package lspserver

import "github.com/rime-ls/rime-ls/internal/protocol"

// transportProgress implements ProgressReporter over a Transport,
// registering the token with the client before the first begin
// notification if the client didn't supply one with the request.
type transportProgress struct {
	t *Transport
}

// NewTransportProgress wraps t as a ProgressReporter.
func NewTransportProgress(t *Transport) ProgressReporter {
	return &transportProgress{t: t}
}

func (p *transportProgress) Begin(token protocol.NumberOrString, title string) {
	_ = p.t.Notify("$/progress", progressParams{
		Token: token,
		Value: workDoneProgressBegin{Kind: "begin", Title: title},
	})
}

func (p *transportProgress) End(token protocol.NumberOrString, message string) {
	_ = p.t.Notify("$/progress", progressParams{
		Token: token,
		Value: workDoneProgressEnd{Kind: "end", Message: message},
	})
}

// CreateWorkDoneProgress registers token with the client via
// window/workDoneProgress/create before Begin/End are used, mirroring the
// source's create_work_done_progress.
func (p *transportProgress) CreateWorkDoneProgress(token protocol.NumberOrString) error {
	return p.t.Request("window/workDoneProgress/create", workDoneProgressCreateParams{Token: token}, nil)
}
