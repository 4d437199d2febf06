// =============================================================================
// SmartBill - Main Entry Point
// =============================================================================
//
// USAGE:
//   smartbill session   - Build a bill interactively
//   smartbill render    - Render a bill file to receipt, PDF, XLSX or XML
//   smartbill version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Billing core, session, import/export adapters, printing
//   - pkg/       : Shared file utilities
//   - features/  : Behaviour scenarios (godog)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/smartbill/cmd"
)

func main() {
	cmd.Execute()
}
