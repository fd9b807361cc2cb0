// Package scribe is the composition root of the scribe note manager.
//
// It wires the core entity collection to its persistence adapters: one file
// per note in a flat data directory, plus a key=value settings file beside
// them. A graphical or command line front end drives the returned
// core.Service and never touches the filesystem itself.
//
// Usage:
//
//	svc, err := scribe.New("./data", scribe.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	if _, err := svc.LoadAllEntities(ctx); err != nil {
//		return err
//	}
//	rec, _ := svc.AddEntity("groceries")
//	_ = svc.UpdateEntityContent(rec.Name, "milk")
//
//	// on exit
//	err = svc.Shutdown(ctx)
package scribe
