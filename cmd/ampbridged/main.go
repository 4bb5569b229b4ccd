package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/ampbridge/pkg/bm83"
	"github.com/robotalks/ampbridge/pkg/bridge"
	"github.com/robotalks/ampbridge/pkg/config"
	fx "github.com/robotalks/ampbridge/pkg/framework"
	"github.com/robotalks/ampbridge/pkg/hid"
	"github.com/robotalks/ampbridge/pkg/nextion"
	"github.com/robotalks/ampbridge/pkg/serialport"
)

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf, err := config.Load()
	if err != nil {
		glog.Exitf("config: %v", err)
	}

	modulePort, err := serialport.Open(conf.Module)
	if err != nil {
		glog.Exitf("module port: %v", err)
	}
	defer modulePort.Close()
	displayPort, err := serialport.Open(conf.Display)
	if err != nil {
		glog.Exitf("display port: %v", err)
	}
	defer displayPort.Close()

	reporter, closeReporter := hid.New(hid.Config{
		BrokerURL: conf.MQTTBrokerURL,
		Hold:      conf.HoldTime,
	}, fx.SystemClock)
	defer closeReporter()

	b := bridge.New(bm83.NewLink(modulePort), nextion.NewLink(displayPort), reporter)
	b.MaxFrames = conf.MaxFrames
	b.MaxTokens = conf.MaxTokens
	b.MaxDrain = conf.MaxDrain
	b.DisplayOffset = conf.DisplayOffset
	b.Start(conf.PowerOn)

	loop := fx.NewLoop().Add(b)
	loop.Idle = conf.Idle
	glog.Infof("bridging %s <-> %s", conf.Module.Path, conf.Display.Path)
	if err := fx.NewService(loop, b.Stop).Run(context.Background()); err != nil {
		glog.Errorf("exit: %v", err)
	}
}
