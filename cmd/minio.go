package cmd

import (
	"context"
	"fmt"
	"log"

	"soundfolio/config"
	"soundfolio/storage"

	"github.com/spf13/cobra"
)

var minioPrefix string

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Inspect the MinIO bucket",
	Long:  `Connect to the configured MinIO bucket and list the stored cover and media objects.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("MinIO config: %s, bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("failed to connect to MinIO: %v", err)
		}
		fmt.Println("MinIO connection OK")

		objects, err := storage.ListObjects(context.Background(), minioPrefix)
		if err != nil {
			log.Fatalf("failed to list objects: %v", err)
		}
		if len(objects) == 0 {
			fmt.Println("no objects found")
			return
		}
		for _, name := range objects {
			fmt.Println(name)
		}
		fmt.Printf("\n%d objects\n", len(objects))
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)

	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "filter objects by prefix")

	minioCmd.Example = `  # list all objects
  soundfolio minio

  # list only cover assets
  soundfolio minio -p "covers/"`
}
