// Package theme keeps the three representations of theme state consistent:
// the persisted settings blob, the provider's resolved value, and the root
// surface's marker set and style bundle.
//
// Integration example:
//
//	store := settings.NewFileStore(cfg.SettingsPath)
//	provider := theme.NewTermProvider(nil)
//	root := theme.NewRootSurface(os.Getenv("TERM"))
//	bridge := theme.NewBridge(provider, store, root, logger)
//	ctx = theme.NewContext(ctx, bridge)
//	...
//	theme.FromContext(ctx).Toggle()
package theme
