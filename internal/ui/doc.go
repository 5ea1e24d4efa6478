// Package ui provides the terminal surfaces of the ledpanel CLI.
//
// Terminal is the interactive panel: a Bubble Tea program that paints the
// frames handed to it by the event loop and turns key presses into input
// events. It never touches device state itself.
//
// Printer renders the "run once and exit" output of the one-shot commands
// (state, toggle, config show) as Lipgloss header and result boxes.
//
// # Logging Integration
//
// While the Terminal is running, stdout belongs to Bubble Tea. Logging should
// be sent to a file (--log-file) or left silent by not setting
// LEDPANEL_LOG_LEVEL.
package ui
