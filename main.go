package main

import (
	"flag"
	"log"
	"net"
	"net/rpc"

	"github.com/spiral/goridge/v2"

	"mailreply/tools"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := tools.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Fatal(err)
	}

	if err := rpc.Register(tools.NewImap(cfg)); err != nil {
		log.Fatal(err)
	}
	if err := rpc.Register(tools.NewReply(cfg)); err != nil {
		log.Fatal(err)
	}

	log.Printf("started on %s", cfg.Listen)

	for {
		conn, err := ln.Accept()
		if err != nil {
			continue
		}

		log.Printf("new connection %+v", conn.RemoteAddr().String())
		go rpc.ServeCodec(goridge.NewCodec(conn))
	}
}
