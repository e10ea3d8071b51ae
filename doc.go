// Package studynotes is the composition root of the study-notes client.
//
// It wires the domain layer (pkg/core) to the HTTP gateway (pkg/adapters/rest),
// the local token store and note vault (pkg/adapters/fs), and exposes the
// per-note AI workspace built from artifact panels (pkg/typed) and the quiz
// session state machine (pkg/quiz).
//
// Usage:
//
//	cfg, err := studynotes.LoadConfig(".")
//	app, err := studynotes.New(cfg, studynotes.WithLogger(logger))
//
//	// Log in; the token is persisted and restored on the next run.
//	user, err := app.Service.Login(ctx, core.Credentials{Email: email, Password: pw})
//
//	// Study a note.
//	ws := studynotes.NewWorkspace(app.Service, logger)
//	ws.SetNote(noteID)
//	summary, err := ws.Summary.Generate(ctx)
//	err = ws.Quiz().Start(ctx)
//
// Sessions are explicit values; nothing in this module keeps global state.
package studynotes
