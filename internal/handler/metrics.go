package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promptGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prompt_generations_total",
			Help: "Total number of prompt generation requests by status.",
		},
		[]string{"status"},
	)

	promptSavesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prompt_saves_total",
		Help: "Total number of successfully saved prompts.",
	})

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_verifications_total",
			Help: "Total number of identity token verification attempts by status.",
		},
		[]string{"status"},
	)
)
