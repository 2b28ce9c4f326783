package main

import (
	"log"
	"os"

	"github.com/jengzang/places-backend-go/internal/app"
	"github.com/jengzang/places-backend-go/internal/config"
)

func main() {
	// 加载配置
	cfg, err := config.Load(os.Getenv("PLACES_CONFIG"))
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	// 初始化数据库与各引擎
	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	// 启动服务器
	router := a.Router()
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
