// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package kvdb

import "go.opentelemetry.io/otel"

var tracer = otel.GetTracerProvider().Tracer("github.com/ssiatkowski/wedding-website/internal/db/kvdb")
