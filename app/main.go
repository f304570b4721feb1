package main

import (
	"fmt"
	"io/ioutil"
	"os"

	log "github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v2"

	"github.com/umputun/photo-feed/app/cmd"
	"github.com/umputun/photo-feed/app/proc"
)

type options struct {
	DB   string `short:"c" long:"db" env:"PF_DB" default:"var/photo-feed.bdb" description:"bolt db file, empty for in-memory token"`
	Conf string `short:"f" long:"conf" env:"PF_CONF" default:"photo-feed.yml" description:"config file (yml)"`

	// oauth app overrides
	ClientID     string `long:"client-id" env:"PF_CLIENT_ID" description:"oauth client id (access key), overrides config"`
	ClientSecret string `long:"client-secret" env:"PF_CLIENT_SECRET" description:"oauth client secret, overrides config"`
	RedirectURI  string `long:"redirect-uri" env:"PF_REDIRECT_URI" description:"oauth redirect uri, overrides config"`

	LoginCmd   cmd.LoginCommand   `command:"login" description:"login with unsplash account"`
	LogoutCmd  cmd.LogoutCommand  `command:"logout" description:"remove stored token"`
	StatusCmd  cmd.StatusCommand  `command:"status" description:"show login status"`
	FeedCmd    cmd.FeedCommand    `command:"feed" description:"list photos"`
	LikeCmd    cmd.LikeCommand    `command:"like" description:"like or unlike photos"`
	UnlikeCmd  cmd.UnlikeCommand  `command:"unlike" description:"remove likes from photos"`
	ProfileCmd cmd.ProfileCommand `command:"profile" description:"show profile of the logged in user"`
	TokenCmd   cmd.TokenCommand   `command:"token" description:"show stored bearer token"`

	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("photo-feed %s\n", revision)

	var opts options
	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(command flags.Commander, args []string) error {
		setupLog(opts.Dbg)

		conf, err := loadConfig(opts.Conf)
		if err != nil {
			log.Printf("[ERROR] can't load config %s, %v", opts.Conf, err)
			return err
		}
		applyOverrides(conf, opts)

		c, ok := command.(cmd.CommonOptionsCommander)
		if !ok {
			return nil
		}
		c.SetCommon(cmd.CommonOpts{Conf: *conf, DB: opts.DB, Revision: revision})
		if err = c.Execute(args); err != nil {
			log.Printf("[ERROR] failed with %+v", err)
		}
		return err
	}

	if _, err := p.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// loadConfig reads yml config, missing file is fine as everything can be set with options
func loadConfig(fname string) (res *proc.Conf, err error) {
	res = &proc.Conf{}
	data, err := ioutil.ReadFile(fname) // nolint
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[DEBUG] no config file %s, use defaults", fname)
			res.SetDefaults()
			return res, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, res); err != nil {
		return nil, err
	}
	res.SetDefaults()
	return res, nil
}

func applyOverrides(conf *proc.Conf, opts options) {
	if opts.ClientID != "" {
		conf.Auth.ClientID = opts.ClientID
	}
	if opts.ClientSecret != "" {
		conf.Auth.ClientSecret = opts.ClientSecret
	}
	if opts.RedirectURI != "" {
		conf.Auth.RedirectURI = opts.RedirectURI
	}
}

func setupLog(dbg bool) {
	if dbg {
		log.Setup(log.Debug, log.CallerFile, log.Msec, log.LevelBraces)
		return
	}
	log.Setup(log.Msec, log.LevelBraces)
}
