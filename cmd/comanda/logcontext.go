package main

import (
	"sync"

	"github.com/spf13/cobra"
)

// annotationStructuredLog marks commands whose fatal-path errors should go
// through the structured logger instead of plain stderr lines. Interactive
// commands (users bootstrap-admin) stay plain.
const annotationStructuredLog = "structured-log"

type commandExecutionContext struct {
	CommandPath       string
	UsesStructuredLog bool
}

var (
	cmdCtxMu sync.Mutex
	cmdCtx   commandExecutionContext
)

func setCommandExecutionContext(ctx commandExecutionContext) {
	cmdCtxMu.Lock()
	defer cmdCtxMu.Unlock()
	cmdCtx = ctx
}

func resetCommandExecutionContext() {
	setCommandExecutionContext(commandExecutionContext{})
}

func currentCommandExecutionContext() commandExecutionContext {
	cmdCtxMu.Lock()
	defer cmdCtxMu.Unlock()
	return cmdCtx
}

func commandUsesStructuredLogging(cmd *cobra.Command) bool {
	return cmd != nil && cmd.Annotations[annotationStructuredLog] == "true"
}
