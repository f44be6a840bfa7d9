package main

import (
	"github.com/iscsolutions/card_service/config"
	"github.com/iscsolutions/card_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
