package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/bizadvisor/advisor/internal/app/api/server"
	"github.com/bizadvisor/advisor/internal/app/service/activity"
	"github.com/bizadvisor/advisor/internal/app/service/analyze"
	"github.com/bizadvisor/advisor/internal/app/service/chat"
	"github.com/bizadvisor/advisor/internal/app/service/llm"
	"github.com/bizadvisor/advisor/internal/app/service/plan"
	"github.com/bizadvisor/advisor/internal/app/service/review"
	"github.com/bizadvisor/advisor/internal/app/service/subscription"
	"github.com/bizadvisor/advisor/internal/platform/db"
	"github.com/bizadvisor/advisor/internal/platform/identity"
	"github.com/bizadvisor/advisor/internal/platform/paypal"
	"github.com/bizadvisor/advisor/pkg/config"
	"github.com/bizadvisor/advisor/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	llm.Module,
	analyze.Module,
	chat.Module,
	subscription.Module,
	plan.Module,
	review.Module,
	activity.Module,
	paypal.Module,
	identity.Module,
)
