// Package nanny boots and babysits the helper processes of a desktop
// session: the autostart applications described by desktop-entry files and
// the current theme's up script.
//
// Mechanism of Operation
//
// On startup, the autostart directory is scanned for desktop files. Each one
// is parsed into key/value entries; entries that are hidden or carry no Exec
// line are skipped, everything else is handed to a shell with its output
// suppressed. Every spawned process lands in a Children registry keyed by
// PID.
//
// The registry never waits on or kills anything. Instead, RegisterChildHook
// sets a caller-owned flag whenever SIGCHLD arrives, and the caller polls
// that flag to decide when to call Children.Reap, which collects exited
// children with non-blocking status checks. Repeated signals before the flag
// is cleared collapse into a single pending indication, so a reap pass must
// always sweep the whole registry.
//
// Every per-file decision the autostart pass makes (spawned, hidden,
// missing Exec, unparseable, spawn failure) is written to the session
// journal as its own event, so the batch is inspectable after the fact.
package nanny
