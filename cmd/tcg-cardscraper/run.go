package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	cardscraper "github.com/jeandeaual/tcg-cardscraper"
	"github.com/jeandeaual/tcg-cardscraper/browser"
	"github.com/jeandeaual/tcg-cardscraper/config"
	"github.com/jeandeaual/tcg-cardscraper/crawl"
	"github.com/jeandeaual/tcg-cardscraper/log"
	"github.com/jeandeaual/tcg-cardscraper/sink"
)

type runFlags struct {
	configFile string
	debug      bool
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run -o OUTPUT",
		Short: "Crawl the listing pages and write the card records",
		Long: "Crawl the listing pages in the configured range and write one record per\n" +
			"card page. The output format is chosen from the file extension: " +
			strings.Join(sink.SupportedExtensions(), ", ") + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScraper(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "configuration file (defaults to ./tcg-cardscraper.yaml)")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringP("output", "o", "", "output file")
	cmd.Flags().Int("start", 1, "first listing page")
	cmd.Flags().Int("end", 1, "last listing page (inclusive)")

	return cmd
}

func loadConfig(cmd *cobra.Command, configFile string) (*config.Config, error) {
	config.LoadDotEnv()

	v := config.New(configFile)

	for key, flag := range map[string]string{
		"output.path": "output",
		"pages.start": "start",
		"pages.end":   "end",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, eris.Wrapf(err, "couldn't bind the --%s flag", flag)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func runScraper(cmd *cobra.Command, flags runFlags) (err error) {
	cfg, err := loadConfig(cmd, flags.configFile)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, flags.debug)
	if err != nil {
		return eris.Wrap(err, "couldn't create the logger")
	}
	defer func() {
		// Don't check for errors since logger.Sync() can sometimes fail
		// even if the logs were properly displayed
		// See https://github.com/uber-go/zap/issues/328
		_ = logger.Sync()
		log.SetLogger(nil)
	}()

	log.SetLogger(logger.Sugar())

	log.Infow("Starting", "pages", fmt.Sprintf("%d-%d", cfg.Pages.Start, cfg.Pages.End), "version", version)

	ctx := cmd.Context()

	crawler, err := crawl.New(crawl.Options{
		BaseURL:     cfg.Site.BaseURL,
		ListingPath: cfg.Site.ListingPath,
		UserAgent:   cfg.HTTP.UserAgent,
		Timeout:     cfg.HTTP.Timeout,
	})
	if err != nil {
		return err
	}

	output, err := sink.Open(cfg.Output.Path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := output.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	session, err := browser.Login(
		ctx,
		browser.Options{
			SignInURL: cfg.SignInURL(),
			Headless:  cfg.Render.Headless,
			UserAgent: cfg.HTTP.UserAgent,
			Timeout:   cfg.Render.LoginTimeout,
		},
		browser.Credentials{
			Email:    cfg.Auth.Email,
			Password: cfg.Auth.Password,
		},
	)
	if err != nil {
		return err
	}
	defer session.Close()

	render := cardscraper.DefaultRenderOptions
	render.InteractionSelector = cfg.Render.ModalSelector
	render.ReadySelector = cfg.Render.ReadySelector
	render.ControlsTimeout = cfg.Render.ControlsTimeout
	render.Settle = cfg.Render.Settle
	render.Timeout = cfg.Render.Timeout

	driver := &cardscraper.Driver{
		Crawler:  crawler,
		Renderer: session,
		Sink:     output,
		Render:   render,
	}

	_, err = driver.Run(ctx, crawl.PageRange{
		Start: cfg.Pages.Start,
		End:   cfg.Pages.End,
	})

	return err
}
