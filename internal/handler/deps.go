package handler

import (
	"shopreco/internal/app/catalog"
	"shopreco/internal/app/console"
	"shopreco/internal/app/recommend"
	"shopreco/internal/app/store"
	"shopreco/internal/configs"
)

// AppDeps carries what the backend API handlers need.
type AppDeps struct {
	Config      *configs.AppConfig
	Store       store.Store
	Catalog     *catalog.Catalog
	Recommender *recommend.Service
}

// ConsoleDeps carries what the console server needs.
type ConsoleDeps struct {
	Config *configs.AppConfig
	Hub    *console.Hub
}
