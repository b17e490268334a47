package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/address-locator/app/bootstrap"
	"github.com/address-locator/app/config"
	"github.com/address-locator/app/models"
	"github.com/address-locator/app/services"
	"github.com/address-locator/internal/gazetteer"
	"github.com/address-locator/internal/search"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logger     = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "addrctl",
		Short:         "Vietnamese address locator CLI",
		Long:          `Phân giải địa chỉ tự do thành phường/xã, quận/huyện, tỉnh/thành phố và quản lý dữ liệu tham chiếu`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "đường dẫn file cấu hình (mặc định config/app.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "ghi log chi tiết ra stderr")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if !verbose {
			return nil
		}
		l, err := bootstrap.InitLogger("development")
		if err != nil {
			return err
		}
		logger = l
		return nil
	}

	rootCmd.AddCommand(createResolveCmd())
	rootCmd.AddCommand(createBatchCmd())
	rootCmd.AddCommand(createSeedMongoCmd())
	rootCmd.AddCommand(createSeedSearchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newAddressService tải cấu hình, dữ liệu tham chiếu và dựng AddressService không cache
func newAddressService(ctx context.Context) (*services.AddressService, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	records, err := bootstrap.LoadRecords(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	p, err := bootstrap.BuildParser(cfg, records, logger)
	if err != nil {
		return nil, err
	}
	return services.NewAddressService(p, nil, nil, bootstrap.ServiceConfig(cfg), logger), nil
}

func createResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [text]",
		Short: "Phân giải một địa chỉ và in JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAddressService(cmd.Context())
			if err != nil {
				return err
			}
			return runResolve(cmd.Context(), svc, strings.Join(args, " "), cmd.OutOrStdout())
		},
	}
}

func runResolve(ctx context.Context, svc *services.AddressService, text string, w io.Writer) error {
	result, err := svc.Resolve(ctx, text)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Resolution)
}

func createBatchCmd() *cobra.Command {
	var inPath, outPath string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Phân giải file nhiều địa chỉ (mỗi dòng một địa chỉ), ghi NDJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAddressService(cmd.Context())
			if err != nil {
				return err
			}

			in, err := os.Open(inPath)
			if err != nil {
				return fmt.Errorf("lỗi mở file %s: %w", inPath, err)
			}
			defer in.Close()

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("lỗi tạo file %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}

			start := time.Now()
			total, matched, err := runBatch(cmd.Context(), svc, in, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Đã xử lý %d địa chỉ, tìm thấy %d, trong %s\n",
				total, matched, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&inPath, "file", "f", "", "file đầu vào, mỗi dòng một địa chỉ")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "file NDJSON đầu ra (mặc định stdout)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// batchLine một dòng NDJSON đầu ra
type batchLine struct {
	Input      string             `json:"input"`
	Resolution *models.Resolution `json:"resolution"`
}

// runBatch đọc địa chỉ theo dòng, xử lý theo lô MaxBatch và ghi NDJSON đúng thứ tự.
// Dòng trống bị bỏ qua.
func runBatch(ctx context.Context, svc *services.AddressService, r io.Reader, w io.Writer) (total, matched int, err error) {
	enc := json.NewEncoder(w)
	chunk := make([]string, 0, svc.MaxBatch())

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		results, err := svc.ResolveBatch(ctx, chunk)
		if err != nil {
			return err
		}
		for i, res := range results {
			if res.Resolution.Matched() {
				matched++
			}
			if err := enc.Encode(batchLine{Input: chunk[i], Resolution: res.Resolution}); err != nil {
				return fmt.Errorf("lỗi ghi NDJSON: %w", err)
			}
		}
		total += len(chunk)
		chunk = chunk[:0]
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		chunk = append(chunk, line)
		if len(chunk) == svc.MaxBatch() {
			if err := flush(); err != nil {
				return total, matched, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return total, matched, fmt.Errorf("lỗi đọc file đầu vào: %w", err)
	}
	if err := flush(); err != nil {
		return total, matched, err
	}
	return total, matched, nil
}

func createSeedMongoCmd() *cobra.Command {
	var filePath string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "seed-mongo",
		Short: "Nạp file JSON dữ liệu tham chiếu vào MongoDB (thay toàn bộ collection)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			records, err := gazetteer.LoadFile(filePath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, collection, err := bootstrap.ConnectMongo(ctx, cfg.Mongo)
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			n, err := gazetteer.SeedMongo(ctx, collection, records, batchSize)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Đã nạp %d bản ghi vào %s.%s\n", n, cfg.Mongo.Database, cfg.Mongo.Collection)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filePath, "file", "f", "data/addresses.json", "file JSON dữ liệu tham chiếu")
	cmd.Flags().IntVar(&batchSize, "batch-size", 1000, "số bản ghi mỗi lần insert")
	return cmd
}

func createSeedSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-search",
		Short: "Đồng bộ dữ liệu tham chiếu sang Meilisearch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			records, err := bootstrap.LoadRecords(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			indexer := search.NewRecordIndexer(search.SearchConfig{
				Host:      cfg.Meilisearch.URL,
				APIKey:    cfg.Meilisearch.MasterKey,
				IndexName: cfg.Meilisearch.Index,
				BatchSize: cfg.Meilisearch.BatchSize,
			}, logger)
			if err := indexer.Health(); err != nil {
				return err
			}
			if err := indexer.ConfigureIndex(); err != nil {
				return err
			}
			n, err := indexer.SeedRecords(records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Đã đồng bộ %d bản ghi sang index %s\n", n, cfg.Meilisearch.Index)
			return nil
		},
	}
}
