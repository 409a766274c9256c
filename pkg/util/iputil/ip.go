// Copyright 2023 Hedgehog
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package iputil

import (
	"net"
	"strconv"
	"strings"

	cidrlib "github.com/apparentlymart/go-cidr/cidr"
	"github.com/pkg/errors"
)

func IsIPv4(addr string) bool {
	ip := net.ParseIP(addr)

	return ip != nil && ip.To4() != nil
}

func IsIPv6(addr string) bool {
	ip := net.ParseIP(addr)

	return ip != nil && ip.To4() == nil
}

// MaskToPrefixLen converts dotted IPv4 mask (e.g. 255.255.255.0) into the prefix length, only contiguous masks accepted
func MaskToPrefixLen(mask string) (int, error) {
	ip := net.ParseIP(strings.TrimSpace(mask)).To4()
	if ip == nil {
		return 0, errors.Errorf("invalid mask %q", mask)
	}

	ones, bits := net.IPMask(ip).Size()
	if bits == 0 {
		return 0, errors.Errorf("non-contiguous mask %q", mask)
	}

	return ones, nil
}

func IsIPv4Mask(mask string) bool {
	_, err := MaskToPrefixLen(mask)

	return err == nil
}

func PrefixLenToMask(prefixLen int) (string, error) {
	if prefixLen < 0 || prefixLen > 32 {
		return "", errors.Errorf("invalid prefix length %d", prefixLen)
	}

	return net.IP(net.CIDRMask(prefixLen, 32)).String(), nil
}

// NetworkAndMask splits IPv4 prefix into network address and dotted mask, e.g. 10.0.1.7/24 -> 10.0.1.0, 255.255.255.0
func NetworkAndMask(prefix string) (string, string, error) {
	_, ipNet, err := net.ParseCIDR(strings.TrimSpace(prefix))
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to parse prefix %s", prefix)
	}
	if ipNet.IP.To4() == nil {
		return "", "", errors.Errorf("prefix %s is not IPv4", prefix)
	}

	return ipNet.IP.String(), net.IP(ipNet.Mask).String(), nil
}

// AddressAndMask splits IPv4 interface address into address and dotted mask keeping the host part,
// e.g. 10.0.1.7/24 -> 10.0.1.7, 255.255.255.0
func AddressAndMask(prefix string) (string, string, error) {
	ip, ipNet, err := net.ParseCIDR(strings.TrimSpace(prefix))
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to parse address %s", prefix)
	}
	if ip.To4() == nil {
		return "", "", errors.Errorf("address %s is not IPv4", prefix)
	}

	return ip.String(), net.IP(ipNet.Mask).String(), nil
}

// PrefixFromAddrMask builds network prefix from address and dotted mask, e.g. 10.0.1.7, 255.255.255.0 -> 10.0.1.0/24
func PrefixFromAddrMask(addr, mask string) (string, error) {
	ip := net.ParseIP(strings.TrimSpace(addr)).To4()
	if ip == nil {
		return "", errors.Errorf("invalid address %q", addr)
	}

	ones, err := MaskToPrefixLen(mask)
	if err != nil {
		return "", err
	}

	ipNet := &net.IPNet{IP: ip.Mask(net.CIDRMask(ones, 32)), Mask: net.CIDRMask(ones, 32)}

	return ipNet.String(), nil
}

func Range(cidr string) (string, string, error) {
	_, subnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to parse cidr %s", cidr)
	}

	first, last := cidrlib.AddressRange(subnet)

	return first.String(), last.String(), nil
}

// Contains checks that address or address range (e.g. 10.0.0.1-10.0.0.10) is part of the cidr
func Contains(cidr string, addrOrRange string) (bool, error) {
	_, subnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return false, errors.Wrapf(err, "failed to parse cidr %s", cidr)
	}

	for _, part := range strings.SplitN(addrOrRange, "-", 2) {
		ip := net.ParseIP(strings.TrimSpace(part))
		if ip == nil {
			return false, errors.Errorf("invalid address %q", part)
		}
		if !subnet.Contains(ip) {
			return false, nil
		}
	}

	return true, nil
}

// Size returns number of addresses in the cidr as a string to fit IPv6 as well
func Size(cidr string) (string, error) {
	_, subnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse cidr %s", cidr)
	}

	return strconv.FormatUint(cidrlib.AddressCount(subnet), 10), nil
}
