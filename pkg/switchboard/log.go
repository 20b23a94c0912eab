// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import "go.uber.org/zap"

// logger is the package-wide log sink. Defaults to a no-op so library use
// stays quiet; the CLI installs a real zap logger at startup.
var logger = zap.NewNop().Sugar()

// SetLogger installs the logger used by every switchboard operation.
func SetLogger(l *zap.Logger) {
	logger = l.Sugar()
}

func logf(format string, args ...any) {
	logger.Infof(format, args...)
}
