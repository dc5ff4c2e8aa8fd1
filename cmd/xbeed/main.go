package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/robotalks/xbee.go/pkg/bridge/mqtt"
	"github.com/robotalks/xbee.go/pkg/config"
	fx "github.com/robotalks/xbee.go/pkg/framework"
	"github.com/robotalks/xbee.go/pkg/transport"
	"github.com/robotalks/xbee.go/pkg/xbee/session"
)

var (
	version = "dev"
	commit  = "none"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "xbeed",
		Short: "XBee API mode gateway",
		Long: `xbeed talks to an XBee radio in API mode 2 over a serial port,
a TCP bridge or a websocket, and bridges received frames and
commands to MQTT.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// glog expects the standard flags to be parsed.
			flag.CommandLine.Parse(nil)
		},
	}
	config.SetupFlags(flag.CommandLine)
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the gateway",
		Args:  cobra.NoArgs,
		RunE:  runGateway,
	}
	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "TOML config file")

	portsCmd := &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := transport.ListPorts()
			if err != nil {
				return err
			}
			if len(ports) == 0 {
				fmt.Println("No serial ports found")
			}
			for _, port := range ports {
				fmt.Println(port)
			}
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("xbeed %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
		},
	}

	rootCmd.AddCommand(runCmd, portsCmd, versionCmd)
	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func runGateway(cmd *cobra.Command, args []string) error {
	conf := config.Default()
	if configFile != "" {
		if err := conf.LoadFile(configFile, cmd.Flags().Changed); err != nil {
			return err
		}
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	runner := fx.NewRunner().HandleSignals()
	rw, err := transport.Open(conf.Port, conf.TransportOptions())
	if err != nil {
		return err
	}
	defer rw.Close()
	glog.Infof("opened %s", conf.Port)

	conn := session.NewConn(rw)
	conn.Workers = conf.Workers
	conn.MaxFrameLength = conf.MaxFrameLength

	var handlers session.Handlers
	if conf.MQTTURL == "" || glog.V(1) {
		handlers = append(handlers, session.LogHandler{})
	}
	if conf.MQTTURL != "" {
		q, err := mqtt.NewQueueFromURL(conf.MQTTURL, "xbeed-"+conf.NodeID)
		if err != nil {
			return err
		}
		if err = q.ConnectWait(runner.Context); err != nil {
			return fmt.Errorf("connect %s: %w", conf.MQTTURL, err)
		}
		defer q.Close()
		bridge := mqtt.NewBridge(q, conf.NodeID, conn)
		bridge.Meta.Port = conf.Port
		bridge.Meta.Version = version
		handlers = append(handlers, bridge)
		runner.Go(bridge)
		glog.Infof("bridging %s as %s", conf.MQTTURL, conf.NodeID)
	}
	conn.Handler = handlers
	return runner.Go(conn).Wait()
}
