// Package pomodoro is the composition root of the pomodoro backend.
//
// It wires the data-access layer of a desktop focus timer: an embedded SQLite
// document store, typed entity controllers for tasks, themes, intents and
// projects, an event bus that tells the UI about every change, and the
// settings file.
//
// Features:
//
//   - **Schemaless documents, typed entities**: records are JSON documents;
//     controllers decode them field by field and fail on missing or mistyped fields.
//   - **Create vs patch payloads**: creation payloads synthesize defaults,
//     update payloads carry only the fields that change.
//   - **Events**: every successful mutation emits "<entity>_<action>".
//   - **Command bridge**: named commands over HTTP, events over a websocket.
//
// Usage:
//
//	a, err := pomodoro.New(ctx, pomodoro.WithConfigDir(dir))
//	if err != nil {
//		return err
//	}
//	defer a.Close()
//
//	resp := a.Router.Invoke(ctx, "main", "create_task", []byte(`{"data":{"title":"Write"}}`))
package pomodoro
