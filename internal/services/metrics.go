package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// commandsHandled counts inbound chat commands.
	// Labels: command, status (ok, error)
	commandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vkinder",
		Subsystem: "bot",
		Name:      "commands_total",
		Help:      "Inbound chat commands by command and status",
	}, []string{"command", "status"})

	// candidatesSkipped counts search results filtered out before presentation.
	// Labels: reason (invalid_name, ignored, favorite)
	candidatesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vkinder",
		Subsystem: "discovery",
		Name:      "candidates_skipped_total",
		Help:      "Search results skipped by filter reason",
	}, []string{"reason"})

	searchesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vkinder",
		Subsystem: "discovery",
		Name:      "searches_started_total",
		Help:      "Candidate searches started",
	})

	// verdictsStored counts likes and dislikes.
	// Labels: verdict (like, dislike)
	verdictsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vkinder",
		Subsystem: "favorites",
		Name:      "verdicts_total",
		Help:      "Verdicts given to candidates",
	}, []string{"verdict"})
)
