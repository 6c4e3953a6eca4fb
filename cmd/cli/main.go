package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bulletin-network/bulletin/lib"
	"github.com/bulletin-network/bulletin/store"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rootCmd = &cobra.Command{
	Use:   "bulletin",
	Short: "bulletin is a public bulletin for permissioned committee view commitments",
	// the data directory flag must be parsed before the config and logger come up
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config = initializeDataDirectory(dataDir)
		l = lib.NewLogger(lib.LoggerConfig{Level: config.GetLogLevel()}, dataDir)
	},
}

var (
	config  = lib.Config{}
	l       = lib.LoggerI(nil)
	dataDir = ""
	height  = int64(0)
	printer = message.NewPrinter(language.English)
)

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(commitmentsCmd)
	commitmentsCmd.Flags().Int64Var(&height, "height", 0, "the commitment height to inspect")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "write a default config.json into the data directory",
	Run: func(cmd *cobra.Command, args []string) {
		configFilePath := filepath.Join(dataDir, lib.ConfigFilePath)
		if err := config.WriteToFile(configFilePath); err != nil {
			l.Fatal(err.Error())
		}
		l.Infof("Wrote %s", configFilePath)
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "list the persisted committee members",
	Run: func(cmd *cobra.Command, args []string) {
		db := openStore()
		defer func() { _ = db.Close() }()
		count := 0
		if err := db.ForEachMember(func(member lib.MemberID) lib.ErrorI {
			fmt.Println(member.String())
			count++
			return nil
		}); err != nil {
			l.Fatal(err.Error())
		}
		printer.Printf("%d committee member(s)\n", count)
	},
}

var commitmentsCmd = &cobra.Command{
	Use:   "commitments",
	Short: "list the persisted commitments, optionally filtered by height",
	Run: func(cmd *cobra.Command, args []string) {
		db := openStore()
		defer func() { _ = db.Close() }()
		filter := cmd.Flags().Changed("height")
		count := 0
		if err := db.ForEachCommitment(func(member lib.MemberID, h int64, c *lib.Commitment) lib.ErrorI {
			if filter && h != height {
				return nil
			}
			fmt.Printf("(%s, %d) view=%s rollingHash=%s\n", member, h, lib.BytesToTruncatedString(c.View), c.RollingHash)
			count++
			return nil
		}); err != nil {
			l.Fatal(err.Error())
		}
		printer.Printf("%d commitment(s)\n", count)
	},
}

// openStore() opens the badger store at the configured data directory
func openStore() *store.Store {
	db, err := store.New(config, l)
	if err != nil {
		l.Fatal(err.Error())
	}
	return db
}

// initializeDataDirectory() ensures the data directory exists and loads (or defaults) the config
func initializeDataDirectory(path string) lib.Config {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		log.Fatal(err)
	}
	configFilePath := filepath.Join(path, lib.ConfigFilePath)
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		c := lib.DefaultConfig()
		c.DataDirPath = path
		return c
	}
	c, err := lib.NewConfigFromFile(configFilePath)
	if err != nil {
		log.Fatal(err)
	}
	c.DataDirPath = path
	return c
}
