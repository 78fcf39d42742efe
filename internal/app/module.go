package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/matriculahub/enroll/internal/app/api/server"
	"github.com/matriculahub/enroll/internal/app/service/checkout"
	"github.com/matriculahub/enroll/internal/app/service/credential"
	"github.com/matriculahub/enroll/internal/app/service/ledger"
	"github.com/matriculahub/enroll/internal/app/service/notify"
	"github.com/matriculahub/enroll/internal/app/service/reconciler"
	"github.com/matriculahub/enroll/internal/app/service/signature"
	"github.com/matriculahub/enroll/internal/app/service/submission"
	"github.com/matriculahub/enroll/internal/app/worker"
	"github.com/matriculahub/enroll/internal/platform/db"
	"github.com/matriculahub/enroll/internal/platform/mercadopago"
	"github.com/matriculahub/enroll/pkg/config"
	"github.com/matriculahub/enroll/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// Module wires the application. The worker registers before the server so
// fx stops the HTTP listener first on shutdown; in-flight webhooks can
// still enqueue while the queue drains.
var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	mercadopago.Module,
	credential.Module,
	signature.Module,
	ledger.Module,
	notify.Module,
	reconciler.Module,
	checkout.Module,
	submission.Module,
	worker.Module,
	server.Module,
)
